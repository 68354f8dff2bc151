// Copyright 2015 The Govisor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command bootd launches and supervises the audio engine, the runtime
// server, and the BEAM IO server, and runs the UDP control surface
// that lets a GUI front end keep the daemon alive and shut it down in
// turn. It is the orchestrator: everything downstream of the root
// bootd package is wired together here, since that is the one place
// in the module allowed to import all of it at once.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/soundmesh/bootd"
	"github.com/soundmesh/bootd/control"
	"github.com/soundmesh/bootd/platform"
	"github.com/soundmesh/bootd/supervise"
)

var (
	configDir = "."
	logDir    = "."
	launcher  = ""
)

func main() {
	flag.StringVar(&configDir, "config-dir", configDir, "directory containing audio.conf and runtime.conf")
	flag.StringVar(&logDir, "log-dir", logDir, "directory the six canonical logs are written to")
	flag.StringVar(&launcher, "launcher", launcher, "path to the BEAM child's launcher script")
	flag.Parse()

	logger := bootd.OpenLogger(filepath.Join(logDir, "daemon.log"))
	bootd.RotateLogs(logDir, logger)

	ports, err := bootd.AllocatePorts(bootd.DefaultPolicy, logger)
	if err != nil {
		logger.LogError("boot: cannot allocate ports", err)
		os.Exit(1)
	}

	token, err := bootd.NewToken()
	if err != nil {
		logger.LogError("boot: cannot generate control token", err)
		os.Exit(1)
	}
	phxSecret, err := bootd.NewPhxSecret()
	if err != nil {
		logger.LogError("boot: cannot generate phx secret", err)
		os.Exit(1)
	}

	plat := platform.Detect()
	logger.Printf("boot: platform %s", plat.Name())

	exit := bootd.NewExitPromise()

	ctrlAddr := fmt.Sprintf("127.0.0.1:%d", ports["daemon"])
	killSwitch := bootd.NewKillSwitch(func() {
		logger.Printf("killswitch: fired, no keep-alive received")
		exit.Deliver()
	})

	audioOpts := bootd.LoadAudioConfig(filepath.Join(configDir, "audio.conf"), ports["scsynth"], logger)
	runtimeOpts := bootd.LoadRuntimeConfig(filepath.Join(configDir, "runtime.conf"), logger)
	envTag := runtimeOpts.Env

	beamPid := bootd.NewBeamPidPromise()
	tauClient := control.NewClient("127.0.0.1", int(ports["tau"]))

	tauLog, tauFile := childLogger(logger, logDir, "beam-child.log")
	tau := supervise.NewTau(launcher, supervise.TauArgs{
		CuesOn:          true,
		UDPLoopbackOnly: true,
		MIDIOn:          true,
		LinkOn:          true,
		CuesPort:        ports["osc-cues"],
		APIPort:         ports["tau"],
		SpiderPort:      ports["spider"],
		DaemonPort:      ports["daemon"],
		LogPath:         filepath.Join(logDir, "beam-child.log"),
		MIDIEnabled:     true,
		LinkEnabled:     true,
		PhxPort:         ports["phx"],
		PhxSecret:       phxSecret,
		Token:           token,
		RuntimeEnvTag:   envTag,
	}, tauLog, plat, tauClient, beamPid)
	tau.Start()

	if _, ok := beamPid.Wait(30 * time.Second); !ok {
		logger.LogError("boot: beam child did not report a pid within 30s, continuing anyway", bootd.ErrPidTimeout)
	}

	ctrlServer := control.NewServer(ctrlAddr, token, logger.Std(), control.Hooks{
		KeepAlive:  killSwitch.KeepAlive,
		Exit:       func() { exit.Deliver() },
		RestartTau: tau.Restart,
		TauPid:     beamPid.Fulfill,
	})
	go ctrlServer.Serve()

	fmt.Printf("%d %d %d %d %d %d %d %d\n",
		ports["daemon"],
		ports["gui-listen-to-spider"],
		ports["gui-send-to-spider"],
		ports["scsynth"],
		ports["osc-cues"],
		ports["tau"],
		ports["phx"],
		token,
	)
	// order fixed by the external handshake contract: daemon
	// gui-listen-to-spider gui-send-to-spider scsynth osc-cues tau phx token
	os.Stdout.Sync()

	audioLog, audioFile := childLogger(logger, logDir, "audio-engine.log")
	audioEngine := supervise.NewScsynth(scsynthPath(), audioOpts, audioLog, plat)
	audioEngine.Start()

	runtimeLog, runtimeFile := childLogger(logger, logDir, "runtime-server.log")
	runtimeServer := supervise.NewRuntime(runtimePath(), supervise.RuntimeArgs{
		ListenFromGUI: ports["spider-listen-to-gui"],
		SendToGUI:     ports["spider-send-to-gui"],
		Scsynth:       ports["scsynth"],
		ScsynthSend:   ports["scsynth-send"],
		OSCCues:       ports["osc-cues"],
		Tau:           ports["tau"],
		ListenFromTau: ports["spider-listen-to-tau"],
		Token:         token,
	}, runtimeLog, plat)
	runtimeServer.Start()

	shutdown := bootd.NewSafeExit(func() {
		logger.Printf("shutdown: stopping children")
		done := make(chan struct{}, 3)
		go func() { audioEngine.Kill(); done <- struct{}{} }()
		go func() { runtimeServer.Kill(); done <- struct{}{} }()
		go func() { tau.Kill(); done <- struct{}{} }()
		for i := 0; i < 3; i++ {
			<-done
		}
		tauFile.Close()
		audioFile.Close()
		runtimeFile.Close()
		logger.Close()
	}, exit)

	exit.Wait()
	shutdown.Trigger("exit requested", logger)
}

// childLogger opens name as a fresh per-child log file in logDir and
// returns a *log.Logger that tees every write to both it and daemon,
// so a single supervisor write lands in its own canonical log and in
// daemon.log. The returned *bootd.Logger is the caller's to Close.
func childLogger(daemon *bootd.Logger, logDir, name string) (*log.Logger, *bootd.Logger) {
	child := bootd.OpenLogger(filepath.Join(logDir, name))
	fanout := bootd.NewMultiLogger()
	fanout.Add("daemon", daemon.Writer())
	fanout.Add(name, child.Writer())
	return log.New(fanout, "", log.LstdFlags), child
}

// scsynthPath and runtimePath resolve the audio engine and runtime
// server binaries from the environment; both are expected to sit
// alongside bootd in a production install.
func scsynthPath() string {
	if p := os.Getenv("BOOTD_SCSYNTH_PATH"); p != "" {
		return p
	}
	return "scsynth"
}

func runtimePath() string {
	if p := os.Getenv("BOOTD_RUNTIME_PATH"); p != "" {
		return p
	}
	return "runtime-server"
}
