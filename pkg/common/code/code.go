package code

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a caller should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPermission
	KindStateConflict
	KindNotFound
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindPermission:
		return "PermissionError"
	case KindStateConflict:
		return "StateConflictError"
	case KindNotFound:
		return "NotFoundError"
	case KindUnauthenticated:
		return "UnauthenticatedError"
	default:
		return "InternalError"
	}
}

type ErrCode int

const (
	Success ErrCode = 0

	UnDefineErr ErrCode = 10000 + iota
	ParamErr
	UnLogin
	LoginFormatErr
	InvalidToken
	RoleUnknownErr

	QueryRecordErr
	CreateDataErr
	UpdateDataErr
	RecordNotFound

	RequestInvalidErr
	ExperimentInvalidErr
	LineItemInvalidErr
	QuantityExceededErr
	ChemicalUnknownErr
	CourseUnresolvedErr
	InsufficientStockErr
	CommentEmptyErr

	TransitionNotAllowedErr
	CommentNotAllowedErr
	NotDraftOwnerErr
	RemarksNotAllowedErr
	CreateNotAllowedErr
	ViewNotAllowedErr

	QuotationTerminalErr
	QuotationNotDraftErr
	QuotationVersionConflictErr

	QuotationNotFoundErr
	LineItemIndexErr

	RPCHttpErr
	RPCHttpCodeErr
	NotifySendMsgErr
	NotifyActionAlreadyRegistryErr
	UnmarshalWSDataErr
)

type meta struct {
	msg  string
	kind Kind
}

var codeMeta = map[ErrCode]meta{
	Success:     {"success", KindInternal},
	UnDefineErr: {"undefined error", KindInternal},
	ParamErr:    {"parameter error", KindValidation},

	UnLogin:        {"not logged in", KindUnauthenticated},
	LoginFormatErr: {"authorization header format error", KindUnauthenticated},
	InvalidToken:   {"invalid token", KindUnauthenticated},
	RoleUnknownErr: {"unknown role", KindUnauthenticated},

	QueryRecordErr: {"query record error", KindInternal},
	CreateDataErr:  {"create data error", KindInternal},
	UpdateDataErr:  {"update data error", KindInternal},
	RecordNotFound: {"record not found", KindNotFound},

	RequestInvalidErr:    {"request is incomplete", KindValidation},
	ExperimentInvalidErr: {"experiment is incomplete", KindValidation},
	LineItemInvalidErr:   {"line item is incomplete", KindValidation},
	QuantityExceededErr:  {"requested quantity exceeds usable quantity", KindValidation},
	ChemicalUnknownErr:   {"chemical not found in inventory", KindValidation},
	CourseUnresolvedErr:  {"course or batch is not active", KindValidation},
	InsufficientStockErr: {"central store stock is insufficient", KindValidation},
	CommentEmptyErr:      {"comment text is empty", KindValidation},

	TransitionNotAllowedErr: {"status transition not allowed for role", KindPermission},
	CommentNotAllowedErr:    {"comment not allowed for role", KindPermission},
	NotDraftOwnerErr:        {"only the draft owner may modify a draft", KindPermission},
	RemarksNotAllowedErr:    {"remarks update not allowed for role", KindPermission},
	CreateNotAllowedErr:     {"role may not create this quotation", KindPermission},
	ViewNotAllowedErr:       {"quotation not visible to role", KindPermission},

	QuotationTerminalErr:        {"quotation is in a terminal status", KindStateConflict},
	QuotationNotDraftErr:        {"quotation is not a draft", KindStateConflict},
	QuotationVersionConflictErr: {"quotation was modified concurrently", KindStateConflict},

	QuotationNotFoundErr: {"quotation not found", KindNotFound},
	LineItemIndexErr:     {"line item index out of range", KindNotFound},

	RPCHttpErr:                     {"remote call error", KindInternal},
	RPCHttpCodeErr:                 {"remote call returned bad status", KindInternal},
	NotifySendMsgErr:               {"send notify message error", KindInternal},
	NotifyActionAlreadyRegistryErr: {"notify action already registered", KindInternal},
	UnmarshalWSDataErr:             {"unmarshal websocket data error", KindInternal},
}

func (c ErrCode) String() string {
	if m, ok := codeMeta[c]; ok {
		return m.msg
	}
	return fmt.Sprintf("error code %d", int(c))
}

func (c ErrCode) Error() string { return c.String() }

func (c ErrCode) Int() int { return int(c) }

func (c ErrCode) Kind() Kind {
	return codeMeta[c].kind
}

func (c ErrCode) WithMsg(msg string) *Error {
	return &Error{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *Error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *Error {
	e := &Error{Code: c, err: err}
	if err != nil {
		e.Msg = err.Error()
	}
	return e
}

func (c ErrCode) WithData(data any) *Error {
	return &Error{Code: c, Data: data}
}

// Error is an ErrCode carrying detail. errors.Is(err, code.X) matches on Code.
type Error struct {
	Code ErrCode
	Msg  string
	Data any
	err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Msg)
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	c, ok := target.(ErrCode)
	return ok && c == e.Code
}

func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

// CodeOf returns the ErrCode carried by err, or UnDefineErr.
func CodeOf(err error) ErrCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c
	}
	return UnDefineErr
}

func KindOf(err error) Kind {
	return CodeOf(err).Kind()
}

func DataOf(err error) any {
	var e *Error
	if errors.As(err, &e) {
		return e.Data
	}
	return nil
}

func MsgOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return CodeOf(err).String()
}
