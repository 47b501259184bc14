package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormData_PreservesKeyOrder(t *testing.T) {
	in := `{"zeta":"1","alpha":"2","mid":{"x":1},"consent_given":true,"handicap":12.5}`

	var f FormData
	require.NoError(t, json.Unmarshal([]byte(in), &f))
	assert.Equal(t, []string{"zeta", "alpha", "mid", "consent_given", "handicap"}, f.Names())
	assert.Equal(t, "2", f.String("alpha"))
	assert.Equal(t, "true", f.String("consent_given"))
	assert.Equal(t, "12.5", f.String("handicap"))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":{"x":1},"consent_given":true,"handicap":12.5}`, string(out))
}

func TestFormData_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var f FormData
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1","b":"2","a":"3"}`), &f))
	assert.Equal(t, []string{"a", "b"}, f.Names())
	assert.Equal(t, "3", f.String("a"))
}

func TestFormData_RejectsNonObject(t *testing.T) {
	var f FormData
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`"a"`), &f))
}

func TestFormData_NullAndEmpty(t *testing.T) {
	var f FormData
	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Nil(t, f)

	out, err := json.Marshal(FormData(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestFormData_ScanValue(t *testing.T) {
	f := FormData{{Name: "full_name", Value: "J. Doe"}, {Name: "email", Value: "j@doe.ke"}}
	v, err := f.Value()
	require.NoError(t, err)

	var back FormData
	require.NoError(t, back.Scan([]byte(v.(string))))
	assert.Equal(t, f.Names(), back.Names())
	assert.Equal(t, "J. Doe", back.String("full_name"))

	assert.Error(t, back.Scan(42))
}

func TestFormData_SetAndGet(t *testing.T) {
	var f FormData
	f.Set("a", "1")
	f.Set("b", "2")
	f.Set("a", "x")
	v, ok := f.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	_, ok = f.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", f.String("missing"))
}

func TestStringArray_ScanValue(t *testing.T) {
	a := StringArray{"https://files/1.pdf", "https://files/2.jpg"}
	v, err := a.Value()
	require.NoError(t, err)

	var back StringArray
	require.NoError(t, back.Scan(v))
	assert.Equal(t, a, back)

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
