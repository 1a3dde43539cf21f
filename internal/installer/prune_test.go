package installer

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pruning", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	mkfile := func(parts ...string) string {
		GinkgoHelper()
		path := filepath.Join(append([]string{dir}, parts...)...)
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, []byte("x"), 0644)).To(Succeed())
		return path
	}

	Describe("RemoveTree", func() {
		It("Should remove nested trees", func() {
			mkfile("tree", "a.txt")
			mkfile("tree", "sub", "b.txt")
			mkfile("tree", "sub", "deeper", "c.txt")
			Expect(os.MkdirAll(filepath.Join(dir, "tree", "empty"), 0755)).To(Succeed())

			Expect(RemoveTree(filepath.Join(dir, "tree"))).To(Succeed())
			Expect(filepath.Join(dir, "tree")).ToNot(BeAnExistingFile())
		})

		It("Should remove symlinks without following them", func() {
			target := mkfile("outside", "keep.txt")
			Expect(os.MkdirAll(filepath.Join(dir, "tree"), 0755)).To(Succeed())
			Expect(os.Symlink(filepath.Dir(target), filepath.Join(dir, "tree", "link"))).To(Succeed())

			Expect(RemoveTree(filepath.Join(dir, "tree"))).To(Succeed())
			Expect(filepath.Join(dir, "tree")).ToNot(BeAnExistingFile())
			Expect(target).To(BeARegularFile())
		})

		It("Should remove single files", func() {
			path := mkfile("single.txt")
			Expect(RemoveTree(path)).To(Succeed())
			Expect(path).ToNot(BeAnExistingFile())
		})

		It("Should accept missing paths", func() {
			Expect(RemoveTree(filepath.Join(dir, "missing"))).To(Succeed())
		})

		It("Should report entries it could not remove and keep going", func() {
			if os.Geteuid() == 0 {
				Skip("permissions are not enforced for root")
			}

			mkfile("tree", "locked", "file.txt")
			mkfile("tree", "free", "file.txt")
			locked := filepath.Join(dir, "tree", "locked")
			Expect(os.Chmod(locked, 0500)).To(Succeed())
			DeferCleanup(os.Chmod, locked, os.FileMode(0755))

			err := RemoveTree(filepath.Join(dir, "tree"))
			Expect(err).To(MatchError(ErrFilesystem))
			Expect(err.Error()).To(ContainSubstring("file.txt"))

			Expect(filepath.Join(locked, "file.txt")).To(BeARegularFile())
			Expect(filepath.Join(dir, "tree", "free")).ToNot(BeAnExistingFile())
		})
	})

	Describe("PruneDirectory", func() {
		It("Should remove everything except the kept entries", func() {
			mkfile("themes", "index.php")
			mkfile("themes", "twentytwentyfour", "style.css")
			mkfile("themes", "twentytwentythree", "style.css")
			mkfile("themes", "My-Theme", "style.css")

			removed, err := PruneDirectory(filepath.Join(dir, "themes"), "index.php", "My-Theme")
			Expect(err).ToNot(HaveOccurred())
			Expect(removed).To(ConsistOf("twentytwentyfour", "twentytwentythree"))

			entries, err := os.ReadDir(filepath.Join(dir, "themes"))
			Expect(err).ToNot(HaveOccurred())
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			Expect(names).To(ConsistOf("index.php", "My-Theme"))
		})

		It("Should fail for missing directories", func() {
			_, err := PruneDirectory(filepath.Join(dir, "missing"))
			Expect(err).To(MatchError(ErrFilesystem))
		})
	})
})
