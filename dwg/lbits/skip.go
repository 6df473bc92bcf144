package lbits

// Skip functions advance the cursor over a field without materializing it.
// They consume exactly the bits the matching Read function would.

func (r *Reader) SkipBitShort() error {
	code, err := r.Read2Bits()
	if err != nil {
		return err
	}
	switch code {
	case 0:
		return r.SeekBits(16)
	case 1:
		return r.SeekBits(8)
	default:
		return nil
	}
}

func (r *Reader) SkipBitLong() error {
	code, err := r.Read2Bits()
	if err != nil {
		return err
	}
	switch code {
	case 0:
		return r.SeekBits(32)
	case 1:
		return r.SeekBits(8)
	default:
		return nil
	}
}

func (r *Reader) SkipBitDouble() error {
	code, err := r.Read2Bits()
	if err != nil {
		return err
	}
	if code == 0 {
		return r.SeekBits(64)
	}
	return nil
}

func (r *Reader) SkipVector() error {
	for i := 0; i < 3; i++ {
		if err := r.SkipBitDouble(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) SkipText() error {
	length, err := r.ReadBitShort()
	if err != nil {
		return err
	}
	return r.SeekBits(int(uint16(length)) * 8)
}

func (r *Reader) SkipHandle() error {
	if err := r.SeekBits(4); err != nil {
		return err
	}
	counter, err := r.Read4Bits()
	if err != nil {
		return err
	}
	return r.SeekBits(int(counter) * 8)
}
