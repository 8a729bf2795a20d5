package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusOf(t *testing.T) {
	_, numErr := strconv.Atoi("x")
	var syntaxErr error = &json.SyntaxError{}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"app error", NewConflict("dup"), http.StatusConflict},
		{"wrapped app error", fmt.Errorf("create: %w", NewNotFound("x")), http.StatusNotFound},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"duplicated key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), http.StatusConflict},
		{"bad number", numErr, http.StatusBadRequest},
		{"bad json", syntaxErr, http.StatusBadRequest},
		{"empty body", io.EOF, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestMessageOfHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "服务器内部错误", MessageOf(errors.New("pq: connection refused")))
	assert.Equal(t, "服务器内部错误", MessageOf(WrapInternal("登录失败", errors.New("secret detail"))))
	assert.Equal(t, "dup", MessageOf(NewConflict("dup")))
	assert.Equal(t, "资源不存在", MessageOf(gorm.ErrRecordNotFound))
}
