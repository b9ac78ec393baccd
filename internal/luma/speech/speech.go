// Package speech handles the audio edge of a session: capturing microphone
// input, turning it into text, and voicing replies back to the user.
// Capture and playback shell out to configurable local commands;
// transcription and synthesis go through OpenAI-compatible HTTP backends.
package speech

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned by a Transcriber when the captured audio contains
// no recognizable utterance. Callers treat it as a miss, not a failure.
var ErrNoSpeech = errors.New("speech: no speech recognized")

// Recorder captures audio from the microphone.
type Recorder interface {
	// Record captures up to seconds of audio and returns the path of the
	// written WAV file. The caller owns the file and removes it when done.
	Record(ctx context.Context, seconds int) (string, error)
}

// Transcriber converts a captured audio file to text.
type Transcriber interface {
	// Transcribe returns the utterance in audioPath, or ErrNoSpeech when
	// the audio holds none.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Synthesizer voices text to the user.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}
