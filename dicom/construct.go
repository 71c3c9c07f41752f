// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dicom

import (
	"fmt"
	"io"
)

// Construct writes the given *DataSet as a DICOM file to the given io.Writer. The desired output
// transfer syntax is specified as a required TransferSyntax DataElement (0002,0010). By default,
// there is no validation against the DICOM standard of any form.
//
// If a *DataElement in the *DataSet is missing VR it will be filled in from the
// DICOM Data Dictionary. The ValueLength of DataElements are ignored and re-calculated, except
// that by default sequences and items of UndefinedLength keep their delimitation items.
func Construct(w io.Writer, dataSet *DataSet, opts ...ConstructOption) error {
	dew, err := NewDataElementWriter(w, dataSet.MetaElements(), opts...)
	if err != nil {
		return err
	}
	if err := writeElements(dew.(*dataElementWriter), dataSet); err != nil {
		return fmt.Errorf("writing data element: %w", err)
	}
	return dew.Close()
}
