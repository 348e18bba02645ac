package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/design/polezero"
	"github.com/cwbudde/algo-pzfilter/measure/response"
)

// tableFreqs are the frequencies listed in the response table.
var tableFreqs = []float64{31.25, 62.5, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

func printPlan(w io.Writer, plan polezero.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pole\tConj\tKey\tPartner\tZero\n")
	fmt.Fprintf(tw, "----\t----\t---\t-------\t----\n")
	for _, m := range plan.Matches {
		partner := "-"
		switch {
		case m.Kind == polezero.PartnerPole && m.HasZero:
			partner = fmt.Sprintf("%.4f + %.4f", m.Partner.Value, m.Zero.Value)
		case m.Kind == polezero.PartnerPole:
			partner = fmt.Sprintf("%.4f", m.Partner.Value)
		case m.HasZero:
			partner = fmt.Sprintf("%.4f", m.Zero.Value)
		}
		fmt.Fprintf(tw, "%.4f\t%t\t%.4f\t%v\t%s\n", m.Pole.Value, m.Pole.Conjugate, m.Key, m.Kind, partner)
	}
	for _, z := range plan.NullMatches {
		fmt.Fprintf(tw, "0\t-\t-\torigin\t%.4f\n", z.Value)
	}
	for _, z := range plan.Leftover {
		fmt.Fprintf(tw, "-\t-\t-\tfir\t%.4f\n", z.Value)
	}
	return tw.Flush()
}

func printCascade(w io.Writer, c *cascade.Cascade) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stage\tB0\tB1\tB2\tA0\tA1\tA2\n")
	fmt.Fprintf(tw, "-----\t--\t--\t--\t--\t--\t--\n")
	for i, s := range c.Sections {
		fmt.Fprintf(tw, "biquad %d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n", i, s.B0, s.B1, s.B2, s.A0, s.A1, s.A2)
	}
	for i, t := range c.FIR {
		fmt.Fprintf(tw, "fir %d\t%.6f\t%.6f\t%.6f\t\t\t\n", i, t[0], t[1], t[2])
	}
	fmt.Fprintf(tw, "delay\t%d\t\t\t\t\t\n", c.Delay)
	fmt.Fprintf(tw, "gain\t%.6f\t\t\t\t\t\n", c.Gain)
	return tw.Flush()
}

// printResponse measures c through a chain and lists exact and measured
// magnitudes at octave frequencies below Nyquist.
func printResponse(w io.Writer, c *cascade.Cascade, sampleRate float64, size int) error {
	chain := cascade.NewChain()
	if err := chain.Prepare(core.ApplyProcessorOptions(core.WithSampleRate(sampleRate), core.WithChannels(1))); err != nil {
		return err
	}
	if err := chain.Load(c); err != nil {
		return err
	}
	a, err := response.NewAnalyzer(sampleRate, size)
	if err != nil {
		return err
	}
	points, err := a.Measure(chain)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Freq [Hz]\tExact [dB]\tMeasured [dB]\n")
	fmt.Fprintf(tw, "---------\t----------\t-------------\n")
	for _, f := range tableFreqs {
		if f >= sampleRate/2 {
			break
		}
		k := int(f/sampleRate*float64(size) + 0.5)
		p := points[k]
		fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\n", p.FreqHz, c.MagnitudeDB(p.FreqHz, sampleRate), p.MagnitudeDB)
	}
	fmt.Fprintf(tw, "\nmax deviation\t%.2g dB\t\n", response.MaxDeviationDB(points, c, sampleRate, -120))
	return tw.Flush()
}
