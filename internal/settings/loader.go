package settings

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML settings file. Unknown fields fail the decode so a
// typo never silently becomes a default.
func Load(path string) (*Settings, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, nil, err
	}

	if err := Validate(&s); err != nil {
		return nil, data, err
	}

	return &s, data, nil
}

// LoadOrDefault loads the file when path is non-empty, otherwise returns
// the stock configuration.
func LoadOrDefault(path string) (*Settings, error) {
	if path == "" {
		s := Default()
		return &s, nil
	}
	s, _, err := Load(path)
	return s, err
}

// Hash generates a SHA-256 hash of the settings via canonical JSON, so
// run records can pin the exact configuration they were produced with.
func Hash(s *Settings) (string, error) {
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
