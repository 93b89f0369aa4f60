// Package utils provides small helpers shared across the flashdeck packages.
// It includes color normalization for the hex surrogate stored with each set
// and share-code normalization for user-entered codes.
package utils
