// Package framework contains the low-level infrastructure of the Nexus end-to-end harness
// that is independent of any particular screen of the application. The base package holds
// shared types such as Logger; other components are in subpackages:
//
//   - errs classifies failures (locator timeouts, navigation timeouts, assertion and setup
//     failures).
//   - harness owns the Playwright driver, the launched browser engines, and the isolated
//     per-scenario browser sessions.
//   - locator builds lazy semantic element queries that are resolved against the live page on
//     every action.
//   - expect provides the bounded-wait assertions used by scenarios.
//   - e2etest is the scenario runner: registration, scheduling, retries and reporting.
//
// The general model is that scenario code never holds element handles. It asks a page object
// for a locator, and each action or assertion resolves that locator again against whatever
// the browser is currently rendering.
package framework
