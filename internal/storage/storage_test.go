package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "avatar-17.png", AvatarKey(17))
	assert.Equal(t, "app_icon-17-4.png", IconKey(17, 4))
	assert.Equal(t, AvatarKey(17), AvatarKey(17))
	assert.NotEqual(t, IconKey(1, 23), IconKey(12, 3))
}
