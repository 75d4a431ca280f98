/*
Package gconf provides a toolset for managing an extension
configuration.

Each package can declare its own configuration singleton. It is stored
under a well known key, derived from the package name, and initialized
from the genesis options.
*/
package gconf
