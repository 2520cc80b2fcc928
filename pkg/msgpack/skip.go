package msgpack

import "github.com/user/pinmsgpack"

// Skip consumes and discards the pending value, recursing into
// containers. A bounded depth prevents pathological stack growth on
// adversarial input (spec.md §4.2); exceeding it fails with
// ErrSkipDepthLimitExceeded rather than overflowing the goroutine
// stack.
func (d *Decoder) Skip() error {
	return d.skip(0)
}

func (d *Decoder) skip(depth int) error {
	if depth > d.skipDepthLimit {
		return d.fail(pinmsgpack.ErrSkipDepthLimitExceeded, "recursive skip exceeded configured depth", nil)
	}
	if err := d.ensurePending(); err != nil {
		return err
	}

	switch d.pending.typ {
	case pinmsgpack.Nil:
		return d.ReadNil()
	case pinmsgpack.Bool:
		_, err := d.ReadBool()
		return err
	case pinmsgpack.UnsignedInt, pinmsgpack.UnsignedInt64:
		_, err := d.ReadUint64()
		return err
	case pinmsgpack.SignedInt, pinmsgpack.SignedInt64:
		_, err := d.ReadInt64()
		return err
	case pinmsgpack.Float32, pinmsgpack.Float64:
		_, err := d.ReadFloat64()
		return err
	case pinmsgpack.String:
		_, err := d.ReadString()
		return err
	case pinmsgpack.Binary:
		_, err := d.ReadBinary()
		return err
	case pinmsgpack.Extension:
		return d.skipExtension()
	case pinmsgpack.Array:
		n, err := d.ReadArrayCount()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.skip(depth + 1); err != nil {
				return err
			}
		}
		return nil
	case pinmsgpack.Map:
		n, err := d.ReadMapCount()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.skip(depth + 1); err != nil {
				return err
			}
			if err := d.skip(depth + 1); err != nil {
				return err
			}
		}
		return nil
	default:
		return d.fail(pinmsgpack.ErrInternal, "skip encountered an unclassified descriptor", nil)
	}
}

// skipExtension discards an extension value's body. Extension payload
// semantics beyond recognition and skipping are out of scope (spec.md
// §1).
func (d *Decoder) skipExtension() error {
	n := d.pending.length
	_, err := d.readFull(n, pinmsgpack.ErrReadingExtType)
	if err != nil {
		return err
	}
	d.clearPending()
	return nil
}
