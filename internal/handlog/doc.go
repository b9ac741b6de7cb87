// Package handlog extracts agent decisions from poker simulation logs.
//
// A log interleaves narration, per-agent JSON prompts and decision lines.
// The scanner pairs each decision with the latest prompt the same agent
// received in the same hand and emits one ActionRecord per pair, in the
// order the decisions appear.
package handlog
