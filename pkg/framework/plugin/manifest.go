package plugin

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk description a plugin bundle ships with. It is
// parsed once at plugin-description time; everything the host sees flows
// from the resulting Info. Malformed manifests are build-time author errors
// and fail loading outright.
type Manifest struct {
	Vendor       string `yaml:"vendor"`
	VendorID     string `yaml:"vendorID"`
	Name         string `yaml:"name"`
	PluginID     string `yaml:"pluginID"`
	Version      string `yaml:"version"`
	Category     string `yaml:"category"`
	Email        string `yaml:"email"`
	Homepage     string `yaml:"homepage"`
	BundlePrefix string `yaml:"bundlePrefix"`
	HasGUI       bool   `yaml:"hasGUI"`
	IsSynth      bool   `yaml:"isSynth"`
	ReceivesMIDI bool   `yaml:"receivesMIDI"`
}

// ErrManifestSecret reports manifest content that looks like a credential.
// Manifests ship inside the plugin bundle in plain text, so a leaked secret
// there is unrecoverable.
var ErrManifestSecret = errors.New("manifest contains a plaintext secret")

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

var secretMarkers = []string{"password", "secret", "apikey", "api_key", "token", "private_key"}

// LoadManifest parses and validates a YAML manifest into an immutable Info.
func LoadManifest(r io.Reader) (Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses and validates manifest bytes.
func ParseManifest(data []byte) (Info, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Info{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m.Info()
}

// Info validates the manifest and builds the plugin's Info.
func (m Manifest) Info() (Info, error) {
	if m.Vendor == "" {
		return Info{}, errors.New("manifest: vendor is required")
	}
	if m.Name == "" {
		return Info{}, errors.New("manifest: name is required")
	}

	vendorID, err := fourCharID("vendorID", m.VendorID)
	if err != nil {
		return Info{}, err
	}
	pluginID, err := fourCharID("pluginID", m.PluginID)
	if err != nil {
		return Info{}, err
	}

	version, err := parseVersion(m.Version)
	if err != nil {
		return Info{}, err
	}

	category := Category(m.Category)
	if !validCategory(category) {
		return Info{}, fmt.Errorf("manifest: unknown category %q", m.Category)
	}

	if m.BundlePrefix == "" {
		return Info{}, errors.New("manifest: bundlePrefix is required")
	}

	if err := checkSecrets(m); err != nil {
		return Info{}, err
	}

	return Info{
		Vendor:       m.Vendor,
		Name:         m.Name,
		VendorID:     vendorID,
		PluginID:     pluginID,
		Version:      version,
		Category:     category,
		Email:        m.Email,
		Homepage:     m.Homepage,
		BundlePrefix: m.BundlePrefix,
		HasGUI:       m.HasGUI,
		IsSynth:      m.IsSynth,
		ReceivesMIDI: m.ReceivesMIDI,
	}, nil
}

func fourCharID(field, s string) ([4]byte, error) {
	var id [4]byte
	if len(s) != 4 {
		return id, fmt.Errorf("manifest: %s %q must be exactly 4 characters", field, s)
	}
	for i := 0; i < 4; i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return id, fmt.Errorf("manifest: %s %q must be printable ASCII", field, s)
		}
		id[i] = s[i]
	}
	return id, nil
}

func parseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("manifest: version %q must have the form D.D.D", s)
	}
	parts := make([]uint8, 3)
	for i, p := range m[1:] {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Version{}, fmt.Errorf("manifest: version component %q out of range", p)
		}
		parts[i] = uint8(n)
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// checkSecrets rejects manifests whose free-text fields look like they carry
// credentials.
func checkSecrets(m Manifest) error {
	fields := map[string]string{
		"vendor":   m.Vendor,
		"name":     m.Name,
		"email":    m.Email,
		"homepage": m.Homepage,
	}
	for field, value := range fields {
		lower := strings.ToLower(value)
		for _, marker := range secretMarkers {
			if strings.Contains(lower, marker+"=") || strings.Contains(lower, marker+":") {
				return fmt.Errorf("%w: field %s", ErrManifestSecret, field)
			}
		}
	}
	return nil
}
