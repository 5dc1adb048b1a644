// Copyright © 2018 One Concern

/*
Package diff computes longest common subsequences and shortest edit scripts.

Inputs first go through a reduction stage: the common prefix and suffix are
stripped, elements present on one side only are dropped, and the remaining
values are mapped to small integers. The reduced sequences are then handed to
an Algorithm:

	Contours      divide and conquer over dominant match contours
	ShortestPath  Wu, Manber, Myers and Miller's O(NP) algorithm
	Speculative   runs both and keeps the first result

All algorithms find an LCS of optimal length. When several optimal alignments
exist, they may pick different ones.

An EditScript can be rendered as an RCS diff (the a/d command format read by
package text) or in unified format.
*/
package diff
