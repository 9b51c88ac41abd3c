package transport

type Protocol string

const (
	TCP Protocol = "tcp"
)

type Addr interface {
	Protocol() Protocol
	Identifier() any // Extra identifier (e.g. port)
	String() string
}
