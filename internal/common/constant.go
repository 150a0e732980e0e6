// Package common contains shared constants and sentinel errors used across
// Recovery Vault components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the gate
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ConfirmationPhrase must be typed verbatim before a purge is executed.
const ConfirmationPhrase = "DELETE ALL"
