package runlog

// FakeSink records emitted records for test assertions.
type FakeSink struct {
	// Records contains every record emitted to the sink.
	Records []Record

	// EmitError, if set, will be returned by Emit.
	EmitError error
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Emit records the record.
func (f *FakeSink) Emit(rec Record) error {
	if f.EmitError != nil {
		return f.EmitError
	}
	f.Records = append(f.Records, rec)
	return nil
}

// Forced returns only the forced records.
func (f *FakeSink) Forced() []Record {
	var out []Record
	for _, r := range f.Records {
		if r.Forced {
			out = append(out, r)
		}
	}
	return out
}

// Reset clears recorded records.
func (f *FakeSink) Reset() {
	f.Records = nil
	f.EmitError = nil
}
