package interp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleNewEnvironFrom() {
	env := NewEnvironFrom([]string{"A=B", "C=D", "E", "F=G=H"})

	fmt.Printf("Environ(): %q\n", env.Environ())
	fmt.Printf("Getenv(\"F\"): %q\n", env.Getenv("F"))

	// Output: Environ(): ["A=B" "C=D" "E=" "F=G=H"]
	// Getenv("F"): "G=H"
}

func ExampleEnviron_Unsetenv() {
	env := NewEnviron()
	env.Setenv("A", "B")
	env.Setenv("C", "D")

	fmt.Println("Before:", env.Environ())
	env.Unsetenv("A")
	fmt.Println("After:", env.Environ())

	// Output: Before: [A=B C=D]
	// After: [C=D]
}

func ExampleEnviron_LookupEnv() {
	env := NewEnviron()
	env.Setenv("A", "B")

	val, ok := env.LookupEnv("A")
	fmt.Println("Existing", "val:", val, "ok:", ok)
	val, ok = env.LookupEnv("B")
	fmt.Println("Missing", "val:", val, "ok:", ok)

	// Output: Existing val: B ok: true
	// Missing val:  ok: false
}

func TestEnvironExpand(t *testing.T) {
	env := NewEnviron()
	env.Setenv("HOME", "/home/user")

	assert.Equal(t, "/home/user/bin", env.Expand("$HOME/bin"))
	assert.Equal(t, "/home/user/bin", env.Expand("${HOME}/bin"))
	assert.Equal(t, "/bin", env.Expand("$MISSING/bin"))
}
