package collision

import (
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// MaxCreationErrorMessages is the number of messages logged for one
// response and model class combination before further failures are muted.
const MaxCreationErrorMessages = 10

type creationErrorKey struct {
	response string
	class1   string
	class2   string
}

// creationErrors throttles the reports of contacts that could not be created.
type creationErrors struct {
	counts map[creationErrorKey]int
}

func newCreationErrors() *creationErrors {
	return &creationErrors{
		counts: make(map[creationErrorKey]int),
	}
}

// count returns how many times the combination failed, this one included.
func (e *creationErrors) count(response string, m1, m2 Model) int {
	key := creationErrorKey{
		response: response,
		class1:   m1.ClassName(),
		class2:   m2.ClassName(),
	}
	n := e.counts[key]
	if n <= MaxCreationErrorMessages {
		n++
		e.counts[key] = n
	}
	return n
}

func (m *ContactManager) reportCreationError(response string, m1, m2 Model, err error) {
	name, _, _ := strings.Cut(response, "?")
	instrumentContactCreationError(name, err)

	n := m.creationErrors.count(response, m1, m2)
	if n > MaxCreationErrorMessages {
		return
	}

	err = errors.New("contact creation failed").
		WithTag("response", response).
		WithTag("class1", m1.ClassName()).
		WithTag("class2", m2.ClassName()).
		Wrap(err)

	if n == 1 {
		logs.WithTag("model1", m1.Name()).
			WithTag("model2", m2.Name()).
			WithTag("supported", strings.Join(m.factory.Supported(name), ", ")).
			Error(err)
	} else {
		logs.WithTag("model1", m1.Name()).
			WithTag("model2", m2.Name()).
			Error(err)
	}

	if n == MaxCreationErrorMessages {
		logs.Warn(errors.New("further contact creation messages suppressed").
			WithTag("response", response).
			WithTag("class1", m1.ClassName()).
			WithTag("class2", m2.ClassName()))
	}
}
