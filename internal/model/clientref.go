package model

// ClientRef is a reference to a client that is either a bare identifier or
// an expanded Client record. The zero value references no client.
type ClientRef struct {
	id       string
	expanded *Client
}

// ClientID returns a reference holding only an identifier.
func ClientID(id string) ClientRef {
	return ClientRef{id: id}
}

// ExpandedClient returns a reference holding the full client record.
func ExpandedClient(c *Client) ClientRef {
	if c == nil {
		return ClientRef{}
	}
	return ClientRef{expanded: c}
}

// ID normalizes the reference to the client identifier.
// It returns "" for an empty reference.
func (r ClientRef) ID() string {
	if r.expanded != nil {
		return r.expanded.ID
	}
	return r.id
}

// IsZero reports whether the reference points at no client.
func (r ClientRef) IsZero() bool {
	return r.ID() == ""
}

// Expanded returns the client record when the reference was expanded.
func (r ClientRef) Expanded() (*Client, bool) {
	return r.expanded, r.expanded != nil
}

// Ptr returns the identifier as a nullable column value.
func (r ClientRef) Ptr() *string {
	if r.IsZero() {
		return nil
	}
	id := r.ID()
	return &id
}
