// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	sberrors "sqlbridge/cli/internal/errors"
)

// PresentError formats an error for user display with masking.
// Typed errors are labelled with their kind so transport and statement
// failures read differently.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(err.Error())
	if kind := sberrors.KindOf(err); kind != "" {
		msg = fmt.Sprintf("[%s] %s", kind, msg)
	}
	if context == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", context, msg)
}
