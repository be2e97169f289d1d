/*
Package solver runs MaxSAT solvers as external processes and interprets what they print.

Solvers are expected to follow the output format of the MaxSAT evaluations.
Among the lines they print on their standard output, three kinds are meaningful:

    s OPTIMUM FOUND
    o 17
    v 1 -2 3 -4 0

The "s" line gives the status of the solver, among SATISFIABLE, UNSATISFIABLE, OPTIMUM, UNKNOWN and ERROR.
Only the first "s" line is taken into account.
Each "o" line gives the cost of the best solution found so far. Costs are minimized,
so a value greater than a previously printed one is ignored.
"v" lines give a model, as a list of literals ended by a terminator.

Exit codes

Along with its status, a solver is expected to exit with a matching code:

    SATISFIABLE   10
    UNSATISFIABLE 20
    OPTIMUM       30
    UNKNOWN       40
    ERROR         50

A Runner executes a solver on an instance under a timeout.
Codes from 120 on are reserved to the process wrapper: 124 means the time limit expired,
128+N that the solver was killed by signal N (134 for an abort, 139 for a segmentation fault).
When the code is that high, the output is not even looked at and the run is considered an ERROR.
*/
package solver
