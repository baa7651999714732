package runtime

import "github.com/ethereum/go-ethereum/common"

type originKind uint8

const (
	originNone originKind = iota
	originRoot
	originSigned
)

// Origin describes who dispatched a call. Privileged operations require the
// root origin, user operations a signed one.
type Origin struct {
	kind   originKind
	signer common.Address
}

func RootOrigin() Origin {
	return Origin{kind: originRoot}
}

func SignedOrigin(signer common.Address) Origin {
	return Origin{kind: originSigned, signer: signer}
}

func NoneOrigin() Origin {
	return Origin{}
}

func (o Origin) IsRoot() bool {
	return o.kind == originRoot
}

// Signer returns the signing account for signed origins.
func (o Origin) Signer() (common.Address, bool) {
	return o.signer, o.kind == originSigned
}

// EnsureRoot fails with ErrBadOrigin unless the origin is root.
func EnsureRoot(o Origin) error {
	if !o.IsRoot() {
		return ErrBadOrigin
	}
	return nil
}

// EnsureSigned fails with ErrBadOrigin unless the origin carries a signature.
func EnsureSigned(o Origin) (common.Address, error) {
	signer, ok := o.Signer()
	if !ok {
		return common.Address{}, ErrBadOrigin
	}
	return signer, nil
}
