package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON_ValidObject(t *testing.T) {
	obj, ok := RepairJSON(`{"a": 1, "b": "two"}`)
	require.True(t, ok)
	assert.Equal(t, float64(1), obj["a"])
	assert.Equal(t, "two", obj["b"])
}

func TestRepairJSON_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"personalityProfile\":{},\"businessAnalysis\":[],\"recommendations\":[]}\n```"
	obj, ok := RepairJSON(raw)
	require.True(t, ok)

	// Структура валидна, все три ключа на месте (пустые значения —
	// забота валидации, не ремонта)
	assert.Contains(t, obj, "personalityProfile")
	assert.Contains(t, obj, "businessAnalysis")
	assert.Contains(t, obj, "recommendations")
}

func TestRepairJSON_ProseAroundObject(t *testing.T) {
	raw := `Here is your analysis: {"score": 42} Hope this helps!`
	obj, ok := RepairJSON(raw)
	require.True(t, ok)
	assert.Equal(t, float64(42), obj["score"])
}

func TestRepairJSON_TruncatedMidString(t *testing.T) {
	raw := `{"businessAnalysis":[{"businessModelId":"freelancing","reasoning":"because you are very organiz`
	obj, ok := RepairJSON(raw)
	// Оборванная строка либо чинится в структурно валидный объект,
	// либо ремонт честно возвращает неуспех; паники быть не может
	if ok {
		_, err := json.Marshal(obj)
		assert.NoError(t, err)
	}
}

func TestRepairJSON_UnbalancedBraces(t *testing.T) {
	raw := `{"a": {"b": {"c": 1}`
	obj, ok := RepairJSON(raw)
	require.True(t, ok)
	inner, isMap := obj["a"].(map[string]interface{})
	require.True(t, isMap)
	assert.Contains(t, inner, "b")
}

func TestRepairJSON_UnbalancedBrackets(t *testing.T) {
	raw := `{"items": [1, 2, 3`
	obj, ok := RepairJSON(raw)
	require.True(t, ok)
	items, isSlice := obj["items"].([]interface{})
	require.True(t, isSlice)
	assert.Len(t, items, 3)
}

func TestRepairJSON_TrailingCommas(t *testing.T) {
	raw := `{"a": 1, "list": [1, 2,], }`
	obj, ok := RepairJSON(raw)
	require.True(t, ok)
	assert.Equal(t, float64(1), obj["a"])
	assert.Len(t, obj["list"], 2)
}

func TestRepairJSON_StringWithBraces(t *testing.T) {
	// Скобки внутри оборванной строки не должны ломать подсчёт глубины:
	// ремонт строк идёт раньше балансировки
	raw := `{"a": 1, "note": "unbalanced }}}] inside {{{ a string`
	obj, ok := RepairJSON(raw)
	require.True(t, ok)
	assert.Equal(t, float64(1), obj["a"])
}

func TestRepairJSON_Unrecoverable(t *testing.T) {
	cases := []string{
		"",
		"no json here at all",
		"[1, 2, 3]", // не объект
	}
	for _, raw := range cases {
		obj, ok := RepairJSON(raw)
		assert.False(t, ok, "input %q should be unrecoverable", raw)
		assert.Nil(t, obj)
	}
}

func TestRepairJSON_TruncationSweep(t *testing.T) {
	full := `{"personalityProfile":{"strengths":["a","b"],"workStyle":"solo"},` +
		`"businessAnalysis":[{"businessModelId":"freelancing","fitScore":82,` +
		`"reasoning":"fits your profile","strengths":["x"],"challenges":["y"],"confidence":0.9}],` +
		`"recommendations":["start small"]}`

	// Обрезка на каждом возможном смещении: ремонт обязан либо вернуть
	// валидный объект, либо неуспех — и никогда не паниковать
	for offset := 0; offset <= len(full); offset++ {
		truncated := full[:offset]
		obj, ok := RepairJSON(truncated)
		if ok {
			data, err := json.Marshal(obj)
			require.NoError(t, err, "offset %d", offset)
			var roundTrip map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &roundTrip), "offset %d", offset)
		}
	}
}
