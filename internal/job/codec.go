package job

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec converts job states to and from the bytes stored in checkpoints.
type Codec[S any] interface {
	Encode(state S) ([]byte, error)
	Decode(data []byte) (S, error)
}

// JSONCodec stores states as JSON, it's the default codec.
type JSONCodec[S any] struct{}

func (JSONCodec[S]) Encode(state S) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("could not marshal JSON state: %w", err)
	}
	return data, nil
}

func (JSONCodec[S]) Decode(data []byte) (S, error) {
	var state S
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("could not unmarshal JSON state: %w", err)
	}
	return state, nil
}

// YAMLCodec stores states as YAML, handy when checkpoints are inspected by hand.
type YAMLCodec[S any] struct{}

func (YAMLCodec[S]) Encode(state S) ([]byte, error) {
	data, err := yaml.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("could not marshal YAML state: %w", err)
	}
	return data, nil
}

func (YAMLCodec[S]) Decode(data []byte) (S, error) {
	var state S
	if err := yaml.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("could not unmarshal YAML state: %w", err)
	}
	return state, nil
}
