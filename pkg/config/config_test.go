package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgfmt/sqlfmt/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestDefaultComplementsAliasAndAsKeyword(t *testing.T) {
	cfg := config.Default()
	require.True(t, cfg.ComplementAlias)
	require.True(t, cfg.ComplementColumnAsKeyword)
	require.False(t, cfg.UnifyNotEqual, "every other rewrite defaults off")
}

func TestValidateRejectsNegativeTabSize(t *testing.T) {
	cfg := config.Default()
	cfg.TabSize = -1
	err := cfg.Validate()
	require.Error(t, err)

	var cerr *config.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "tab_size", cerr.Field)
	require.Equal(t, "ConfigError", cerr.Kind())
}

func TestValidateRejectsNegativeMaxCharPerLine(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCharPerLine = -5
	err := cfg.Validate()
	require.Error(t, err)

	var cerr *config.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "max_char_per_line", cerr.Field)
}

func TestValidateRejectsInvalidCase(t *testing.T) {
	cfg := config.Default()
	cfg.KeywordCase = "loud"
	err := cfg.Validate()
	require.Error(t, err)

	var cerr *config.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "keyword_case", cerr.Field)
}

func TestValidateAcceptsEmptyCaseAsDefault(t *testing.T) {
	cfg := config.Default()
	cfg.KeywordCase = ""
	cfg.IdentifierCase = ""
	require.NoError(t, cfg.Validate())
}

func TestErrorSatisfiesFormatErrorSurface(t *testing.T) {
	var err error = &config.Error{Field: "tab_size", Message: "bad"}
	kindErr, ok := err.(interface{ Kind() string })
	require.True(t, ok)
	require.Equal(t, "ConfigError", kindErr.Kind())
}
