package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserKey(t *testing.T) {
	v := UserKey()

	assert.NoError(t, v("alicepk"))
	assert.NoError(t, v("0xDEADbeef1234"))

	assert.Error(t, v(""), "empty")
	assert.Error(t, v("abc"), "too short")
	assert.Error(t, v("has space"), "spaces")
	assert.Error(t, v(string(make([]byte, 300))), "too long")
}

func TestChatID(t *testing.T) {
	v := ChatID()

	assert.NoError(t, v("chat-1"))
	assert.NoError(t, v("eyJhbGciOiJIUzI1NiJ9.abc.def"))

	assert.Error(t, v(""))
	assert.Error(t, v("chat 1"))
}

func TestComposeFirstErrorWins(t *testing.T) {
	v := Compose(Required(), MinLength(4))

	err := v("")
	assert.ErrorContains(t, err, "required")
}

func TestFieldLabelsErrors(t *testing.T) {
	v := Field("userKey", Required())

	err := v("")
	assert.ErrorContains(t, err, "userKey")
}
