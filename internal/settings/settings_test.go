package settings

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safari-erp/safari/internal/dfc"
)

func TestBool_ExactLiteral(t *testing.T) {
	s := New()
	tests := []struct {
		value string
		want  bool
	}{
		{"True", true},
		{"False", false},
		{"true", false},
		{"1", false},
		{"yes", false},
		{" True", false},
		{"", false},
	}
	for _, tt := range tests {
		s.Set("k", tt.value)
		assert.Equal(t, tt.want, s.Bool("k", true), "value %q", tt.value)
	}

	assert.True(t, s.Bool("missing", true))
	assert.False(t, s.Bool("missing", false))
}

func TestOfficial_Defaults(t *testing.T) {
	assert.Equal(t, dfc.DefaultConfig(), New().Official())
}

func TestOfficial_StoredValues(t *testing.T) {
	data := "key,value\n" +
		"modelo_dfc_oficial,Saldo + (Entradas − Saídas)\n" +
		"usar_saldo_lancado,False\n" +
		"usar_saldo_calculado,True\n" +
		"considerar_somente_conciliados,false\n" +
		"forcar_saida_negativa,True\n"
	s, err := Read(strings.NewReader(data))
	require.NoError(t, err)

	cfg := s.Official()
	assert.Equal(t, dfc.FormulaNetMovement, cfg.Formula, "unicode minus is accepted")
	assert.False(t, cfg.UseRecordedOpening)
	assert.True(t, cfg.UseComputedOpening)
	assert.False(t, cfg.ReconciledOnly, "lowercase false is not True")
	assert.True(t, cfg.ForceOutflowNegative)
}

func TestOfficial_UnknownFormula(t *testing.T) {
	s := New()
	s.Set(KeyFormula, "Saldo * 2")
	assert.Equal(t, dfc.DefaultFormula, s.Official().Formula)
}

func TestSetOfficial_RoundTrip(t *testing.T) {
	cfg := dfc.Config{
		Formula:              dfc.FormulaOutflowsOnly,
		UseRecordedOpening:   false,
		UseComputedOpening:   true,
		ReconciledOnly:       false,
		ForceOutflowNegative: true,
	}
	s := New()
	s.SetOfficial(cfg)

	v, ok := s.Get(KeyUseRecordedOpening)
	require.True(t, ok)
	assert.Equal(t, "False", v)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	loaded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded.Official())
}

func TestWrite_SortedKeys(t *testing.T) {
	s := New()
	s.Set("b", "2")
	s.Set("a", "1")
	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Equal(t, "key,value\na,1\nb,2\n", buf.String())
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("key,value\n,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	_, err = Read(strings.NewReader("key,value\na,b,c\n"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s := New()
	s.SetOfficial(dfc.DefaultConfig())
	s.Set("tema", "escuro")
	require.NoError(t, s.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dfc.DefaultConfig(), loaded.Official())
	v, _ := loaded.Get("tema")
	assert.Equal(t, "escuro", v)
}

func TestLoad_Missing(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, s.Keys())
}
