package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Unavailable      Code = 100008
	NotImplemented   Code = 100009

	// Raffle codes
	RaffleClosed   Code = 200001
	SoldOut        Code = 200002
	AlreadySettled Code = 200003
	RaffleNotEnded Code = 200004

	// Order book codes
	DuplicateListing Code = 300001
	AlreadySold      Code = 300002
	NotOwner         Code = 300003
	InvalidSignature Code = 300004

	// Lottery codes
	NoActiveRound Code = 400001
	RoundClosed   Code = 400002
)
