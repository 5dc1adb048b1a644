// Copyright © 2018 One Concern

/*
Package revision models dotted revision numbers.

A plain revision has an even number of components (1.3, 1.3.2.4). A branch
identifier has an odd number of components (1.3.2 is the second branch
sprouting from 1.3).

On disk, branch tags are usually written in "magic" form, with a 0 inserted
before the last component (1.3.0.2 for branch 1.3.2). Parse folds this form
and MagicString renders it back: a Revision value never remembers how it was
spelled.

Revisions are ordered by length first, then component by component. This is
not containment: 1.3 < 1.3.2.1 because it is shorter, and 1.3.2.1 > 1.4 for
the same reason.
*/
package revision
