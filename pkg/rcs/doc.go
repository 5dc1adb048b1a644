// Copyright © 2018 One Concern

/*
Package rcs reads, writes and updates RCS delta chains.

A File holds the history of one tracked file: admin phrases, one Delta per
revision, a description and the delta texts. The newest trunk revision (the
head) stores its full text. Older trunk revisions store reverse diffs and
branch revisions store forward diffs, so that:

	head (full) --next--> 1.2 (diff head->1.2) --next--> 1.1 (diff 1.2->1.1)
	                                                       |
	                                                    branches
	                                                       v
	                                           1.1.2.1 (diff 1.1->1.1.2.1) --next--> 1.1.2.2

On the trunk, next points to the older revision. On branches it points to the
newer one. Checkout walks back to the head and replays the diffs forward.

The package does no I/O and no locking: callers hand in the file bytes and
persist the bytes Dump returns.
*/
package rcs
