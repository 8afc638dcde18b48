/*
Package nopx implements the "dxymom/no-px" lint check. It reports literal px
lengths in style sheet declarations and at-rules so that they can be replaced
with rpx, the responsive pixel unit of mini-program style sheets.


Basics

Checking a style sheet occurs in two steps. First the style sheet is parsed
into rules and declarations by the parser package. Then each declaration value
and at-rule prelude is tokenized by the value package and the resulting tree
is walked by HasForbiddenPX, which decides whether the node uses a forbidden
px length.

The lint package drives both steps over a whole style sheet and reports one
warning per offending node.


Matching

A word is a px length when it is an optionally signed decimal number directly
followed by a lowercase "px" with nothing after it, e.g. "2px", "-3.5px" or
"+1px". Words such as "2PX", "2px!", "2pxfoo" or "1e3px" never match. Zero
lengths are always allowed.

Quoted strings are checked for interpolation placeholders followed by px, e.g.
"@{size}px", since the resolved value cannot be known ahead of time. Such a
string is always reported.

The arguments of url() and of any function named in the IgnoreFunctions option
are never examined.


Options

The Ignore option lists property name fragments. A declaration whose property
contains a plain fragment is never reported. A fragment followed by whitespace
and "1px", such as "border 1px", only allows 1px lengths on matching
properties. The entry "1px" on its own allows 1px lengths everywhere and is
the default when Ignore is not set.


*/
package nopx
