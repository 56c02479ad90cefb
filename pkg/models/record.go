package models

// FieldRecord is an ordered field name to value mapping decoded from one
// queue message. MessageID and ReceiptHandle are queue metadata, not fields.
type FieldRecord struct {
	MessageID     string
	ReceiptHandle string

	keys   []string
	values map[string]string
	masked map[string]bool
}

func NewFieldRecord() *FieldRecord {
	return &FieldRecord{
		values: make(map[string]string),
		masked: make(map[string]bool),
	}
}

// Set adds or overwrites a field. New fields keep insertion order.
func (r *FieldRecord) Set(name, value string) {
	if _, exists := r.values[name]; !exists {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

func (r *FieldRecord) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *FieldRecord) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r *FieldRecord) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *FieldRecord) Len() int {
	return len(r.keys)
}

// Missing returns the names from required that are not present, in order.
func (r *FieldRecord) Missing(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !r.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// SetMasked overwrites a field with its digest and remembers that it was masked.
func (r *FieldRecord) SetMasked(name, digest string) {
	r.Set(name, digest)
	r.masked[name] = true
}

func (r *FieldRecord) IsMasked(name string) bool {
	return r.masked[name]
}

func (r *FieldRecord) MaskedFields() []string {
	var fields []string
	for _, k := range r.keys {
		if r.masked[k] {
			fields = append(fields, k)
		}
	}
	return fields
}

func (r *FieldRecord) Clone() *FieldRecord {
	c := &FieldRecord{
		MessageID:     r.MessageID,
		ReceiptHandle: r.ReceiptHandle,
		keys:          r.Keys(),
		values:        make(map[string]string, len(r.values)),
		masked:        make(map[string]bool, len(r.masked)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	for k, v := range r.masked {
		c.masked[k] = v
	}
	return c
}
