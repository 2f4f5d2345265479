// SPDX-License-Identifier: MPL-2.0

// Package issue turns launcher failures into guidance a user can act on.
// ActionableError carries the failed operation, the resource involved and
// suggestions. Issue pages are longer markdown explanations rendered with
// glamour.
package issue
