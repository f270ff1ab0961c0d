// Copyright 2020-2025 Buf Technologies, Inc.
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

package token

import "fmt"

const (
	Error Kind = iota // Input the tokenizer could not make sense of.

	Number       // A numeric literal; see [Radix].
	Linebreak    // A single \n, \r or \r\n.
	StartOfScope // Opens a nested region: brackets, quotes, comments, #if.
	EndOfScope   // Closes the innermost matching StartOfScope.
	Delimiter    // One of , ; or a non-operator :.
	Operator     // A run of operator characters; see [Fixity].
	StringBody   // Literal text inside a string or regex literal.
	Keyword      // A reserved word, or a #word or @word.
	Identifier   // A name, including backticked names and $0.
	Space        // A run of horizontal whitespace.
	CommentBody  // The text of a comment, excluding delimiters and padding.
)

// Kind identifies what kind of token a particular [Token] is.
type Kind byte

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Error:
		return "Error"
	case Number:
		return "Number"
	case Linebreak:
		return "Linebreak"
	case StartOfScope:
		return "StartOfScope"
	case EndOfScope:
		return "EndOfScope"
	case Delimiter:
		return "Delimiter"
	case Operator:
		return "Operator"
	case StringBody:
		return "StringBody"
	case Keyword:
		return "Keyword"
	case Identifier:
		return "Identifier"
	case Space:
		return "Space"
	case CommentBody:
		return "CommentBody"
	default:
		return fmt.Sprintf("token.Kind(%d)", int(k))
	}
}

const (
	Integer Radix = iota // 123, 1_000
	Decimal              // 1.5, 1e10, 0x1p4
	Binary               // 0b1010
	Octal                // 0o17
	Hex                  // 0xFF
)

// Radix is the literal form of a [Number] token.
type Radix byte

// String implements [fmt.Stringer].
func (r Radix) String() string {
	switch r {
	case Integer:
		return "Integer"
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	case Octal:
		return "Octal"
	case Hex:
		return "Hex"
	default:
		return fmt.Sprintf("token.Radix(%d)", int(r))
	}
}

const (
	None    Fixity = iota // Not applied to an operand, e.g. an operator passed as a function.
	Infix                 // a + b
	Prefix                // -a
	Postfix               // a!
)

// Fixity is the position of an [Operator] token relative to its operands.
type Fixity byte

// String implements [fmt.Stringer].
func (f Fixity) String() string {
	switch f {
	case None:
		return "None"
	case Infix:
		return "Infix"
	case Prefix:
		return "Prefix"
	case Postfix:
		return "Postfix"
	default:
		return fmt.Sprintf("token.Fixity(%d)", int(f))
	}
}
