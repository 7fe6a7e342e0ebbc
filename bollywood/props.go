package bollywood

// Producer creates a new Actor instance. A fresh Actor is produced each
// time an actor is spawned.
type Producer func() Actor

// Props configures how an actor is created.
type Props struct {
	producer Producer
}

// NewProps builds a Props from an actor Producer.
func NewProps(producer Producer) *Props {
	if producer == nil {
		panic("bollywood: producer cannot be nil")
	}
	return &Props{producer: producer}
}

// Produce creates a new actor instance using the configured producer.
func (p *Props) Produce() Actor {
	return p.producer()
}
