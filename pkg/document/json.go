package document

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/pretty"
)

// jsonWidth is the maximum column width for single-line JSON arrays.
const jsonWidth = 80

// EncodeJSON renders v as normalized JSON: sorted keys, two-space indent,
// HTML escaping off so text like <owner> survives verbatim.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return nil, errors.Wrap(ErrSerialize, err.Error())
	}

	opts := &pretty.Options{
		Width:    jsonWidth,
		Indent:   "  ",
		SortKeys: true,
	}

	return bytes.TrimSuffix(pretty.PrettyOptions(buf.Bytes(), opts), []byte("\n")), nil
}
