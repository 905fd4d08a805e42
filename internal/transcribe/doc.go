// Package transcribe adapts the external speech-to-text tool.
//
// Transcription is a collaborator, not part of the detection core: the
// service takes a window's audio file and a language hint and returns plain
// text. An empty transcript is a valid "no speech recognized" result, never
// an error; recognition failures degrade to an empty transcript so a single
// bad window cannot fail a pipeline run.
package transcribe
