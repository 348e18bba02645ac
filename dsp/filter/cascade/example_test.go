package cascade_test

import (
	"fmt"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
)

func ExampleChain_ProcessBlock() {
	// One pole at 0.5 paired with a zero at -1, plus one sample of delay.
	cs := &cascade.Cascade{
		Sections: []cascade.Section{{B1: 1, B2: 1, A1: 1, A2: -0.5}},
		Delay:    1,
		Gain:     0.5,
	}

	chain := cascade.NewChain()
	if err := chain.Prepare(core.ApplyProcessorOptions(core.WithChannels(1))); err != nil {
		panic(err)
	}
	if err := chain.Load(cs); err != nil {
		panic(err)
	}

	buf := []float64{1, 0, 0, 0, 0}
	chain.ProcessBlock(buf)
	fmt.Printf("%.4f %.4f %.4f %.4f %.4f\n", buf[0], buf[1], buf[2], buf[3], buf[4])
	// Output:
	// 0.0000 0.5000 0.7500 0.3750 0.1875
}
