package kernel

// processBlock2 is the portable kernel, unrolled by two.
func processBlock2(c Coefficients, s1, s2 float64, buf []float64) (next1, next2 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)
	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := b0*x0 + s1
		t0 := b1*x0 - a1*y0 + s2
		t1 := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + t0
		s1 = b1*x1 - a1*y1 + t1
		s2 = b2*x1 - a2*y1

		buf[i] = y0
		buf[i+1] = y1
	}

	if i < n {
		s1, s2 = tail(b0, b1, b2, a1, a2, s1, s2, buf[i:])
	}

	return s1, s2
}

// processBlock4 is unrolled by four for wide out-of-order cores.
func processBlock4(c Coefficients, s1, s2 float64, buf []float64) (next1, next2 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)
	for ; i+3 < n; i += 4 {
		x := buf[i : i+4 : i+4]

		y0 := b0*x[0] + s1
		s1 = b1*x[0] - a1*y0 + s2
		s2 = b2*x[0] - a2*y0

		y1 := b0*x[1] + s1
		s1 = b1*x[1] - a1*y1 + s2
		s2 = b2*x[1] - a2*y1

		y2 := b0*x[2] + s1
		s1 = b1*x[2] - a1*y2 + s2
		s2 = b2*x[2] - a2*y2

		y3 := b0*x[3] + s1
		s1 = b1*x[3] - a1*y3 + s2
		s2 = b2*x[3] - a2*y3

		x[0], x[1], x[2], x[3] = y0, y1, y2, y3
	}

	if i < n {
		s1, s2 = tail(b0, b1, b2, a1, a2, s1, s2, buf[i:])
	}

	return s1, s2
}

func tail(b0, b1, b2, a1, a2, s1, s2 float64, buf []float64) (float64, float64) {
	for i, x := range buf {
		y := b0*x + s1
		s1 = b1*x - a1*y + s2
		s2 = b2*x - a2*y
		buf[i] = y
	}
	return s1, s2
}
