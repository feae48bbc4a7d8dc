/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package utils

import (
	"encoding/json"
	"fmt"
)

// Must panics if the error is not nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// LazyJSON will lazily marshal a struct for logging purposes.
type LazyJSON struct {
	O      any
	Indent string
}

// String marshal and returns the struct.
func (lj *LazyJSON) String() string {
	var p []byte
	var err error
	if lj.Indent != "" {
		p, err = json.MarshalIndent(lj.O, "", lj.Indent)
	} else {
		p, err = json.Marshal(lj.O)
	}
	if err != nil {
		return fmt.Sprintf("cannot marshal object: %v", err)
	}
	return string(p)
}
