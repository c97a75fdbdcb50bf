package errdefer_test

import (
	"io"
	"os"

	"github.com/9585999/pygments/internal/errdefer"
)

func writeTo(name, body string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer errdefer.Close(&err, f)
	// NOTE: err must be a named return.

	_, err = io.WriteString(f, body)
	return err
}

func ExampleClose() {
	if err := writeTo(os.DevNull, "pre { background: #fff }\n"); err != nil {
		panic(err)
	}
	// Output:
}
