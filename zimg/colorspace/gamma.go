// Copyright 2026 go-zimg Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package colorspace

import "math"

// Rec. 709 OETF constants. The 10-/12-bit 2020 transfer curves share
// them, which is why those tags canonicalize onto Transfer709.
const (
	rec709Alpha = 1.09929682680944
	rec709Beta  = 0.018053968510807
)

// rec709OETF maps scene-linear light to the Rec. 709 signal. Negative
// inputs are mapped by odd symmetry so out-of-gamut excursions survive a
// round trip.
func rec709OETF(x float64) float64 {
	neg := x < 0
	if neg {
		x = -x
	}
	var v float64
	if x < rec709Beta {
		v = 4.5 * x
	} else {
		v = rec709Alpha*math.Pow(x, 0.45) - (rec709Alpha - 1)
	}
	if neg {
		return -v
	}
	return v
}

// rec709InverseOETF maps the Rec. 709 signal back to scene-linear light.
func rec709InverseOETF(x float64) float64 {
	neg := x < 0
	if neg {
		x = -x
	}
	var v float64
	if x < 4.5*rec709Beta {
		v = x / 4.5
	} else {
		v = math.Pow((x+rec709Alpha-1)/rec709Alpha, 1/0.45)
	}
	if neg {
		return -v
	}
	return v
}
