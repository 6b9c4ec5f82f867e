// Package audio plays short feedback cues for operation milestones.
package audio

import (
	"bytes"
	"embed"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

//go:embed sounds/*.wav
var sounds embed.FS

var (
	speakerOnce  sync.Once
	speakerReady bool
	quiet        bool
	logFunc      func(string, ...interface{})
)

// Init configures the audio package. When quietMode is set all Play
// calls become no-ops.
func Init(quietMode bool, logger func(string, ...interface{})) {
	quiet = quietMode
	logFunc = logger
}

func log(format string, args ...interface{}) {
	if logFunc != nil {
		logFunc(format, args...)
	}
}

func ensureSpeakerInitialized(format beep.Format) {
	speakerOnce.Do(func() {
		log("Setting up audio...")
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			log("Audio unavailable: %v", err)
			return
		}
		speakerReady = true
	})
}

// PlayStart plays the operation-started cue.
func PlayStart() { play("sounds/start.wav") }

// PlaySuccess plays the operation-finished cue.
func PlaySuccess() { play("sounds/success.wav") }

// PlayError plays the operation-failed cue.
func PlayError() { play("sounds/error.wav") }

// play decodes and plays a bundled cue synchronously. Any failure is
// logged and swallowed; a missing sound card never breaks an update.
func play(name string) {
	if quiet {
		return
	}

	data, err := sounds.ReadFile(name)
	if err != nil {
		log("Missing sound %s: %v", name, err)
		return
	}

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		log("Sound file couldn't be decoded: %v", err)
		return
	}
	defer streamer.Close()

	ensureSpeakerInitialized(format)
	if !speakerReady {
		return
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))
	<-done
}

// StopAll stops all currently playing sounds.
func StopAll() {
	if !speakerReady {
		return
	}
	speaker.Clear()
}
