package statement

import (
	"encoding/json"
	"errors"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/model"
)

// Decode parses a payload document. When lenient is set and the document is
// not well-formed JSON, it is repaired (trailing commas, single quotes,
// unclosed brackets) and parsed again.
func Decode(data []byte, lenient bool) (*model.Payload, error) {
	var p model.Payload
	err := json.Unmarshal(data, &p)
	if err == nil {
		return &p, nil
	}

	var syntaxErr *json.SyntaxError
	if !lenient || !errors.As(err, &syntaxErr) {
		return nil, eris.Wrap(err, "statement: decode payload")
	}

	repaired, rerr := jsonrepair.RepairJSON(string(data))
	if rerr != nil {
		return nil, eris.Wrapf(err, "statement: decode payload (repair failed: %v)", rerr)
	}

	var fixed model.Payload
	if err := json.Unmarshal([]byte(repaired), &fixed); err != nil {
		return nil, eris.Wrap(err, "statement: decode repaired payload")
	}
	zap.L().Warn("statement: payload was not valid JSON, decoded after repair",
		zap.Int64("offset", syntaxErr.Offset),
	)
	return &fixed, nil
}
