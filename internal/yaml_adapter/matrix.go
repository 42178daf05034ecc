package yaml_adapter

import (
	"fmt"

	"github.com/specialistvlad/burstmatrix/internal/model"
	"gopkg.in/yaml.v3"
)

// translateMatrix walks a strategy.matrix mapping. Every key except exclude
// is an axis; axes keep their order in the mapping.
func translateMatrix(filename string, node *yaml.Node) (*model.Matrix, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, nodeErrorf(filename, node, "matrix must be a mapping of axis names to value lists")
	}

	m := &model.Matrix{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], resolveAlias(node.Content[i+1])

		switch key.Value {
		case "exclude":
			exclude, err := translateExclude(filename, value)
			if err != nil {
				return nil, err
			}
			m.Exclude = exclude
		case "include":
			return nil, nodeErrorf(filename, key, "matrix include is not supported")
		default:
			values, err := scalarList(filename, key.Value, value)
			if err != nil {
				return nil, err
			}
			m.Axes = append(m.Axes, model.Axis{Name: key.Value, Values: values})
		}
	}
	return m, nil
}

func scalarList(filename, axis string, node *yaml.Node) ([]string, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		return nil, nodeErrorf(filename, node, "matrix axis %q must be a list of values", axis)
	}
	values := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
			return nil, nodeErrorf(filename, item, "each value of matrix axis %q must be a string, number or bool", axis)
		}
		values = append(values, item.Value)
	}
	return values, nil
}

func translateExclude(filename string, node *yaml.Node) ([]model.Exclusion, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		return nil, nodeErrorf(filename, node, "matrix exclude must be a list of mappings")
	}
	out := make([]model.Exclusion, 0, len(node.Content))
	for _, entry := range node.Content {
		entry = resolveAlias(entry)
		if entry.Kind != yaml.MappingNode {
			return nil, nodeErrorf(filename, entry, "each matrix exclude entry must be a mapping")
		}
		ex := make(model.Exclusion, len(entry.Content)/2)
		for i := 0; i+1 < len(entry.Content); i += 2 {
			k, v := entry.Content[i], resolveAlias(entry.Content[i+1])
			if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
				return nil, nodeErrorf(filename, v, "exclude value for axis %q must be a string, number or bool", k.Value)
			}
			ex[k.Value] = v.Value
		}
		out = append(out, ex)
	}
	return out, nil
}

// resolveAlias follows *anchor references to the node they name.
func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// nodeErrorf formats an error positioned at node.
func nodeErrorf(filename string, node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%s:%d,%d: %s", filename, node.Line, node.Column, fmt.Sprintf(format, args...))
}
