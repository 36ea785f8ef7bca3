// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"strconv"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ExistsError   GenericError
	InvalidError  GenericError
	LengthError   GenericError
	NotFoundError GenericError
	ProcessError  GenericError
	StaleError    GenericError
)

// common errors - keep in alphabetic order
var (
	AlreadyInitialised           = ProcessError("already initialised")
	ArchiveItemNotFound          = NotFoundError("archive item not found")
	AuthorizationFailed          = InvalidError("authorization failed")
	BalanceOverflow              = ProcessError("balance overflow")
	BalanceTooSmall              = ProcessError("balance is too small")
	CannotDecodeAccount          = InvalidError("cannot decode account")
	CannotDecodeSignature        = InvalidError("cannot decode signature")
	CannotDecodeVerifyingKey     = InvalidError("cannot decode verifying key")
	CannotSelfTrade              = InvalidError("current and next owner must differ")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	DatabaseIsNotSet             = ProcessError("database is not set")
	DoubleArchiveAttempt         = ExistsError("double archive attempt")
	InsufficientPayment          = ProcessError("insufficient payment")
	InvalidAccountName           = InvalidError("invalid account name")
	InvalidCount                 = InvalidError("invalid count")
	InvalidDenominator           = InvalidError("denominator must be a positive number")
	InvalidIpAddress             = InvalidError("invalid ip address")
	InvalidKeyLength             = LengthError("invalid key length")
	InvalidLoggerChannel         = ProcessError("invalid logger channel")
	InvalidNumerator             = InvalidError("numerator must not exceed denominator")
	InvalidPackage               = InvalidError("invalid storage package")
	InvalidPayload               = InvalidError("invalid payload")
	InvalidSignature             = InvalidError("invalid signature")
	InvalidStructPointer         = ProcessError("invalid struct pointer")
	InvalidTimestamp             = InvalidError("invalid timestamp")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	MissingParameters            = InvalidError("missing parameters")
	NotAvailableInStoppedMode    = ProcessError("not available in stopped mode")
	NotInitialised               = ProcessError("not initialised")
	NotOperator                  = InvalidError("not the operator account")
	NothingToTransfer            = ProcessError("nothing to transfer")
	PackageNotFound              = NotFoundError("storage package not found")
	PayoutNotFound               = NotFoundError("payout record not found")
	PositiveAmountRequired       = InvalidError("positive amount required")
	QuotaExceeded                = ProcessError("storage quota exceeded")
	RateLimiting                 = ProcessError("rate limiting active")
	StaleAuthorization           = StaleError("stale authorization")
	TokenNotFound                = NotFoundError("token not found")
	TransactionInUse             = ProcessError("transaction already in use")
	WrongOwner                   = InvalidError("record belongs to another account")
	WrongToken                   = InvalidError("receipt from wrong token contract")
)

// DeficitError - insufficient payment carrying the exact missing amount
type DeficitError uint64

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e StaleError) Error() string    { return string(e) }

func (e DeficitError) Error() string {
	return "insufficient payment, add extra " + strconv.FormatUint(uint64(e), 10)
}

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrStale(e error) bool    { _, ok := e.(StaleError); return ok }

// IsErrInsufficientPayment - with or without a reported deficit
func IsErrInsufficientPayment(e error) bool {
	if InsufficientPayment == e {
		return true
	}
	_, ok := e.(DeficitError)
	return ok
}
