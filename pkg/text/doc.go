/*
Package text applies line-oriented edit scripts.

An edit script is a sequence of commands addressing 1-based line numbers of
the text before the script runs:

	a<line> <count>   followed by count lines: insert after line
	d<line> <count>   delete count lines starting at line

Every line number in a script refers to the original text: commands never see
the effect of earlier commands of the same script.
*/
package text
