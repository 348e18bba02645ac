package pzfilter_test

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
	"github.com/cwbudde/algo-pzfilter/dsp/pzfilter"
)

func ExampleFilter() {
	f := pzfilter.New(pzfilter.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	defer f.Close()

	// A notch at a quarter of the sample rate, sharpened by a pole pair.
	_ = f.Edit(func(s *rootset.Store) error {
		z, _ := s.Add(1)
		_ = s.SetValue(z, complex(0, 1))
		p, _ := s.Add(-1)
		return s.SetValue(p, complex(0, 0.95))
	})

	c := f.Cascade()
	fmt.Printf("sections=%d delay=%d\n", len(c.Sections), c.Delay)
	fmt.Println("notch below -100 dB:", c.MagnitudeDB(12000, 48000) < -100)

	if err := f.Prepare(48000, 6, 1); err != nil {
		fmt.Println(err)
		return
	}
	buf := [][]float64{{1, 0, 0, 0, 0, 0}}
	f.ProcessBlock(buf)
	fmt.Printf("%.4f\n", buf[0])
	// Output:
	// sections=1 delay=2
	// notch below -100 dB: true
	// [0.0000 0.0000 1.0000 0.0000 0.0975 0.0000]
}
