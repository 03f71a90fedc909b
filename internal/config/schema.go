package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type schemaError struct {
	Path    string
	Line    int
	Message string
}

func (e schemaError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d field %s: %s", e.Line, e.Path, e.Message)
	}
	return fmt.Sprintf("field %s: %s", e.Path, e.Message)
}

// SchemaError lists every problem found in one config file.
type SchemaError struct {
	File   string
	errors []schemaError
}

func (e *SchemaError) Error() string {
	return formatSchemaErrors(e.File, e.errors)
}

func formatSchemaErrors(path string, errs []schemaError) string {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Line != errs[j].Line {
			return errs[i].Line < errs[j].Line
		}
		if errs[i].Path != errs[j].Path {
			return errs[i].Path < errs[j].Path
		}
		return errs[i].Message < errs[j].Message
	})
	var b strings.Builder
	b.WriteString("config validation failed for ")
	b.WriteString(path)
	for _, e := range errs {
		b.WriteString("\n- ")
		b.WriteString(e.String())
	}
	return b.String()
}

var (
	topLevelKeys   = []string{"source", "fetch_timeout", "timezone", "repo", "schema_repo", "output", "log", "publish"}
	repoKeys       = []string{"owner", "name"}
	outputKeys     = []string{"html", "json", "checksums", "run_log"}
	logKeys        = []string{"mode"}
	publishKeys    = []string{"enabled", "endpoint", "region", "bucket", "prefix", "access_key", "secret_key", "use_ssl"}
	scalarTopLevel = []string{"source", "fetch_timeout", "timezone"}
)

func validateConfigYAML(root *yaml.Node) []schemaError {
	if root == nil || len(root.Content) == 0 {
		return []schemaError{{Path: "config", Message: "empty YAML document"}}
	}
	errList := []schemaError{}
	m := validateMapNode(root.Content[0], "config", topLevelKeys, nil, &errList)
	for _, key := range scalarTopLevel {
		if v, ok := m[key]; ok {
			validateScalarNode(v, "config."+key, &errList)
		}
	}
	for key, allowed := range map[string][]string{
		"repo":        repoKeys,
		"schema_repo": repoKeys,
		"output":      outputKeys,
		"log":         logKeys,
		"publish":     publishKeys,
	} {
		v, ok := m[key]
		if !ok {
			continue
		}
		section := validateMapNode(v, "config."+key, allowed, nil, &errList)
		for field, fv := range section {
			validateScalarNode(fv, "config."+key+"."+field, &errList)
		}
	}
	return errList
}

func validateMapNode(node *yaml.Node, path string, allowed, required []string, errs *[]schemaError) map[string]*yaml.Node {
	result := map[string]*yaml.Node{}
	if node == nil {
		*errs = append(*errs, schemaError{Path: path, Message: "missing object"})
		return result
	}
	if node.Kind != yaml.MappingNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a mapping/object"})
		return result
	}
	allowedSet := map[string]bool{}
	for _, a := range allowed {
		allowedSet[a] = true
	}
	seen := map[string]int{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		key := k.Value
		if prevLine, ok := seen[key]; ok {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: fmt.Sprintf("duplicate key (already defined at line %d)", prevLine)})
			continue
		}
		seen[key] = k.Line
		if !allowedSet[key] {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: "unknown field"})
			continue
		}
		result[key] = node.Content[i+1]
	}
	for _, req := range required {
		if _, ok := result[req]; !ok {
			*errs = append(*errs, schemaError{Path: path + "." + req, Line: node.Line, Message: "missing required field"})
		}
	}
	return result
}

func validateScalarNode(node *yaml.Node, path string, errs *[]schemaError) {
	if node != nil && node.Kind != yaml.ScalarNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a scalar value"})
	}
}
