package document

import (
	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v4"
)

// DecodeYAML parses data with a full YAML parser and converts the result
// into the value model. It accepts documents well beyond the subset grammar
// (flow style, anchors, multi-line scalars) but rejects node types the
// model cannot carry.
func DecodeYAML(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}

	return fromYAML(raw)
}

// fromYAML converts a yaml-decoded value into the Value union.
func fromYAML(raw any) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case string:
		return String(val), nil
	case []any:
		seq := make(Sequence, 0, len(val))

		for _, item := range val {
			v, err := fromYAML(item)
			if err != nil {
				return nil, err
			}

			seq = append(seq, v)
		}

		return seq, nil
	case map[string]any:
		m := make(Mapping, len(val))

		for key, item := range val {
			v, err := fromYAML(item)
			if err != nil {
				return nil, err
			}

			m[key] = v
		}

		return m, nil
	default:
		return nil, errors.Wrapf(ErrDecode, "unsupported YAML value of type %T", raw)
	}
}
