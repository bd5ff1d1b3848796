package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []float64
	}{
		{"nil", nil, []float64{}},
		{"scalar float", 42.5, []float64{42.5}},
		{"scalar int", 7, []float64{7}},
		{"numeric string", "3.14", []float64{3.14}},
		{"delimited string", "1, 2,3", []float64{1, 2, 3}},
		{"semicolon delimited", "10;20;30", []float64{10, 20, 30}},
		{"mixed array", []interface{}{1.0, "2", "junk", 3}, []float64{1, 2, 3}},
		{"nested array", []interface{}{[]interface{}{1.0, 2.0}, 3.0}, []float64{1, 2, 3}},
		{"garbage string", "not numbers at all", []float64{}},
		{"object values member", map[string]interface{}{"values": []interface{}{1.0, 2.0}}, []float64{1, 2}},
		{"object history member", map[string]interface{}{"history": "3;4"}, []float64{3, 4}},
		{"object values before history", map[string]interface{}{"history": 2.0, "values": 1.0}, []float64{1, 2}},
		{"object other members ignored", map[string]interface{}{"total": 9.0}, []float64{}},
		{"bool", true, []float64{}},
		{"nan dropped", []float64{1, math.NaN(), 2}, []float64{1, 2}},
		{"inf dropped", []float64{math.Inf(1), 5}, []float64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumbers(tt.input))
		})
	}
}

func TestNormalizeNumbers_NeverNil(t *testing.T) {
	assert.NotNil(t, NormalizeNumbers(nil))
	assert.NotNil(t, NormalizeNumbers(struct{}{}))
}

func TestSafeNum(t *testing.T) {
	assert.Equal(t, 0.42, SafeNum(0.42))
	assert.Equal(t, 5.0, SafeNum("5"))
	assert.Equal(t, 0.0, SafeNum("nope"))
	assert.Equal(t, 0.0, SafeNum(nil))
	assert.Equal(t, 0.0, SafeNum(math.NaN()))
	assert.Equal(t, 0.0, SafeNum(math.Inf(-1)))
}
