package converter

// Version is stamped into the `__version__` field of the converted model config.
const Version = "0.4.0"
