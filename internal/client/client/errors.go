package client

import "github.com/dmitrijs2005/recoveryvault/internal/common"

var (
	ErrUnavailable  = common.ErrUnavailable
	ErrUnauthorized = common.ErrorUnauthorized
)
