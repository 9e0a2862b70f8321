package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveUI updates the ui section in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveUI(configPath string, ui UIConfig) error {
	return saveSection(configPath, "ui", ui)
}

// SaveRules replaces autoformat.rules in the config file, keeping the other
// autoformat keys and every other section.
func SaveRules(configPath string, rules []RuleConfig) error {
	doc, err := readDocument(configPath)
	if err != nil {
		return err
	}

	rulesNode, err := encodeNode(rules)
	if err != nil {
		return fmt.Errorf("building rules node: %w", err)
	}

	autoformat := mappingValue(rootMapping(doc), "autoformat")
	if autoformat.Kind != yaml.MappingNode {
		autoformat.Kind = yaml.MappingNode
		autoformat.Tag = ""
		autoformat.Value = ""
		autoformat.Content = nil
	}
	setMappingValue(autoformat, "rules", rulesNode)

	return writeDocument(configPath, doc)
}

func saveSection(configPath, key string, value any) error {
	doc, err := readDocument(configPath)
	if err != nil {
		return err
	}

	node, err := encodeNode(value)
	if err != nil {
		return fmt.Errorf("building %s node: %w", key, err)
	}
	setMappingValue(rootMapping(doc), key, node)

	return writeDocument(configPath, doc)
}

// readDocument parses the config file into a yaml.Node, returning an empty
// document when the file does not exist.
func readDocument(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user-selected config path
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	return &doc, nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		root.Kind = yaml.MappingNode
		root.Tag = ""
		root.Value = ""
		root.Content = nil
	}
	return root
}

// mappingValue returns the value node for key, creating an empty one.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	v := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	return v
}

func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

func encodeNode(v any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return &node, nil
}

// writeDocument marshals doc and writes it atomically (temp file, then rename).
func writeDocument(configPath string, doc *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".draftmark.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
