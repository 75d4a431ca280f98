/*
Package x contains some standard extensions

Extensions implement common functionality (auth, transfers)
and can be combined together to construct an application.

All sub-packages are various extensions, useful to build
applications, but not necessary to use the framework.
All of them provide handlers that you can wire into a
registry to use in your application.
*/
package x
