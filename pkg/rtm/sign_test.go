package rtm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Vector from the RTM authentication documentation: signing
// yxz=foo feg=bar abc=baz with the shared secret BANANAS.
func TestSignDocumentedVector(t *testing.T) {
	params := map[string]string{
		"yxz": "foo",
		"feg": "bar",
		"abc": "baz",
	}
	assert.Equal(t, "82044aae4dd676094f23f1ec152159ba", Sign(params, "BANANAS"))
}

func TestSignOrderInvariant(t *testing.T) {
	a := map[string]string{"a": "1", "b": "2", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}
	assert.Equal(t, Sign(a, "secret"), Sign(b, "secret"))
}

func TestSignSensitivity(t *testing.T) {
	base := map[string]string{"a": "1", "b": "2"}
	sig := Sign(base, "secret")

	assert.NotEqual(t, sig, Sign(map[string]string{"a": "1", "b": "3"}, "secret"))
	assert.NotEqual(t, sig, Sign(map[string]string{"a": "1"}, "secret"))
	assert.NotEqual(t, sig, Sign(base, "other"))
}
