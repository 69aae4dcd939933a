// Package world composes the spatial grid and the reaction table into a
// deterministic simulation of reacting atoms on a torus.
//
// A [World] owns its grid, its bond ledger and a single random stream. Each
// call to [World.Step] runs, in order:
//
//  1. diffusion: every atom, by ascending id, takes a random step scaled by temperature
//  2. collision resolution: a fixed number of separation passes; bonds are
//     relaxed toward their rest length after each pass
//  3. reaction trial: touching pairs that are not bonded are looked up in the
//     table; Combine bonds the pair, Excite only changes states
//  4. decomposition trial: bonded pairs matching a Decompose rule split
//
// Identical configuration, seed and population give identical trajectories.
//
// # Thread Safety
//
// A World is NOT thread-safe. The [chem.Table] it reads may be shared.
package world
