package manifest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

// HelmChart handles the top-level "version" key of Chart.yaml. appVersion is
// left alone.
type HelmChart struct {
	fs   filesystem.FileSystem
	path string
}

func NewHelmChart(fs filesystem.FileSystem, path string) *HelmChart {
	return &HelmChart{fs: fs, path: path}
}

func (h *HelmChart) Kind() models.ProjectKind { return models.KindHelmChart }
func (h *HelmChart) PrimaryFile() string      { return h.path }
func (h *HelmChart) SatelliteFiles() []string { return nil }

// Name returns the chart name.
func (h *HelmChart) Name() (string, error) {
	data, err := readFile(h.fs, h.path)
	if err != nil {
		return "", err
	}
	root, err := h.mapping(data)
	if err != nil {
		return "", err
	}
	if node := mappingValue(root, "name"); node != nil && node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}
	return "", fmt.Errorf("%w: no name in %s", models.ErrManifestParse, h.path)
}

func (h *HelmChart) GetVersion() (*models.Version, error) {
	data, err := readFile(h.fs, h.path)
	if err != nil {
		return nil, err
	}
	node, err := h.versionNode(data)
	if err != nil {
		return nil, err
	}
	return parseFieldVersion(h.path, "version", node.Value)
}

func (h *HelmChart) Edits(newVersion *models.Version) ([]Edit, error) {
	data, err := readFile(h.fs, h.path)
	if err != nil {
		return nil, err
	}
	node, err := h.versionNode(data)
	if err != nil {
		return nil, err
	}

	start, ok := offsetOf(data, node.Line, node.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %s: cannot locate version in source", models.ErrManifestParse, h.path)
	}
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		start++
	}
	end := start + len(node.Value)
	if end > len(data) || string(data[start:end]) != node.Value {
		return nil, fmt.Errorf("%w: %s: cannot locate version in source", models.ErrManifestParse, h.path)
	}

	after, changes := splice(data, []span{{start: start, end: end, field: "version"}}, newVersion)
	return []Edit{{Path: h.path, Before: data, After: after, Changes: changes}}, nil
}

func (h *HelmChart) mapping(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrManifestParse, h.path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: top-level value is not a mapping", models.ErrManifestParse, h.path)
	}
	return doc.Content[0], nil
}

func (h *HelmChart) versionNode(data []byte) (*yaml.Node, error) {
	root, err := h.mapping(data)
	if err != nil {
		return nil, err
	}
	node := mappingValue(root, "version")
	if node == nil || node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: no \"version\" in %s", models.ErrVersionFieldNotFound, h.path)
	}
	return node, nil
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// offsetOf converts a 1-based yaml line/column (columns count runes) to a
// byte offset.
func offsetOf(data []byte, line, column int) (int, bool) {
	offset := 0
	for l := 1; l < line; l++ {
		k := bytes.IndexByte(data[offset:], '\n')
		if k < 0 {
			return 0, false
		}
		offset += k + 1
	}
	for c := 1; c < column; c++ {
		if offset >= len(data) || data[offset] == '\n' {
			return 0, false
		}
		_, size := utf8.DecodeRune(data[offset:])
		offset += size
	}
	return offset, true
}
