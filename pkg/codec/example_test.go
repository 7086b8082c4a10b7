package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/keydeck/pkg/codec"
)

// ExampleReadCard decodes a hand-written card that uses Fortran and bare-sign
// exponents.
func ExampleReadCard() {
	var id int
	var x, y, z float64

	err := codec.ReadCard(" 1 7.85-9 1.0d-5 2.5", codec.Standard, func(r *codec.LineReader) {
		id = r.Int(0)
		x = r.Real(0)
		y = r.Real(0)
		z = r.Real(0)
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(id, x, y, z)
	// Output: 1 7.85e-09 1e-05 2.5
}

// ExampleLineWriter encodes a card in Large format, where reals take 20 columns.
func ExampleLineWriter() {
	w := codec.NewLineWriter(codec.Large)
	w.Int(42).Real(7.85e-9).Int(3)

	fmt.Printf("%q\n", w.Line())
	// Output: "        42       0.00000000785         3"
}
