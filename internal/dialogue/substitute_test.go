package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		captures []string
		want     string
	}{
		{"second capture", "Glad you're doing %2!", []string{"I am", "great"}, "Glad you're doing great!"},
		{"first capture", "Nice to meet you, %1!", []string{"Sam"}, "Nice to meet you, Sam!"},
		{"index past captures stays literal", "Hi %3", []string{"a"}, "Hi %3"},
		{"zero stays literal", "%0 left", []string{"a"}, "%0 left"},
		{"no captures", "Just %1", nil, "Just %1"},
		{"capture punctuation trimmed", "Why %1?", []string{" my keys. "}, "Why my keys?"},
		{"repeated placeholder", "%1 and %1", []string{"x"}, "x and x"},
		{"multi digit", "%10", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "ten"}, "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.template, tt.captures))
		})
	}
}

func TestReflect(t *testing.T) {
	r := DefaultReflections()

	tests := []struct {
		in   string
		want string
	}{
		{"my keys", "your keys"},
		{"I am tired", "you are tired"},
		{"your car", "my car"},
		{"you're late", "I'm late"},
		{"Sam", "Sam"},
		{"help me.", "help you."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Reflect(tt.in))
		})
	}
}

func TestReflect_EmptyTableIsIdentity(t *testing.T) {
	assert.Equal(t, "my  keys", Reflections{}.Reflect("my  keys"))
}

func TestLiteral_ReflectsBeforeSubstituting(t *testing.T) {
	turn := &Turn{
		Captures:    []string{"my car keys"},
		Reflections: DefaultReflections(),
	}
	assert.Equal(t, "Why do you need your car keys?", Literal("Why do you need %1?").Produce(turn))
}
