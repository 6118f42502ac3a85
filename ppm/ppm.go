/*
Package ppm implements a decoder for the binary full-color Netpbm
format, type "P6".

A P6 stream starts with four whitespace-separated ASCII header tokens:
the literal "P6", the width, the height and the maximum sample value.
Comments running from '#' to the end of the line may appear between any
two header tokens. A single whitespace byte after the maxval token
separates the header from width*height pixels of 3 consecutive samples
(red, green, blue), each sample being one byte when maxval is below 256
and two big-endian bytes otherwise. Samples are rescaled linearly to
8-bit channels; the output alpha channel is always zero.

A single buffer may hold any number of images back to back with no
delimiter beyond the natural end of the pixel data. Decoding is
all-or-nothing: the first failure anywhere in the buffer aborts the
whole parse.
*/
package ppm

const magic = "P6"
