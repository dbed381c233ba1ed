package evtc

import (
	"github.com/evtcflow/evtcflow/pkg/container"
	"github.com/evtcflow/evtcflow/pkg/raw"
)

// Process unwraps, decodes and builds a capture in one step. The data may
// still be inside its zip or gzip container.
func Process(data []byte) (*Log, error) {
	payload, err := container.Unwrap(data)
	if err != nil {
		return nil, err
	}
	decoded, err := raw.Decode(payload)
	if err != nil {
		return nil, err
	}
	return Build(decoded)
}

// ProcessFile reads a capture file and processes it.
func ProcessFile(path string) (*Log, error) {
	data, err := container.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := raw.Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(decoded)
}
