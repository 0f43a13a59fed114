// Package gomegax contains gomega matchers built on go-cmp.
package gomegax

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"
	"google.golang.org/protobuf/testing/protocmp"
)

// EqualX matches values that are equal according to cmp.Equal().
//
// Unlike gomega.Equal() it compares time.Time values with their Equal()
// method, which matters for timestamps that have been through a persisted
// round-trip. Without options, protocol buffers messages are compared by value
// and nil and empty slices are equal.
func EqualX(expected any, options ...cmp.Option) types.GomegaMatcher {
	if len(options) == 0 {
		options = cmp.Options{
			protocmp.Transform(),
			cmpopts.EquateEmpty(),
		}
	}

	return cmpMatcher{expected, options}
}

type cmpMatcher struct {
	expected any
	options  cmp.Options
}

func (m cmpMatcher) Match(actual any) (bool, error) {
	return cmp.Equal(actual, m.expected, m.options), nil
}

func (m cmpMatcher) FailureMessage(actual any) string {
	if a, ok := actual.(string); ok {
		if e, ok := m.expected.(string); ok {
			return format.MessageWithDiff(a, "to equal", e)
		}
	}

	return m.message(actual, "to equal")
}

func (m cmpMatcher) NegatedFailureMessage(actual any) string {
	return m.message(actual, "not to equal")
}

func (m cmpMatcher) message(actual any, relation string) string {
	diff := cmp.Diff(actual, m.expected, m.options)

	return format.Message(actual, relation, m.expected) +
		"\n\nDiff (-actual +expected):\n" +
		format.IndentString(diff, 1)
}
